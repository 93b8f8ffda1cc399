// Package file provides the TOML-file implementation of driven.ConfigStore.
//
// Configuration lives in ~/.revlink/config.toml by default. Tables are
// flattened into dot-notation keys on load ([providers.github] client_id
// becomes "providers.github.client_id") and nested again on save, so the
// file stays hand-editable. Watch reloads the file when another process
// or an editor changes it.
package file
