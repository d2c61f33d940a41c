// Package module defines the data model of the chunk runtime: module records,
// their exports containers, the instantiated-module cache and the provenance
// tags used in diagnostics.
//
// # Records
//
// A Module is reserved in the Cache before its factory runs. Any module that
// requires it while the factory is still executing (a dependency cycle)
// receives this placeholder and its in-progress Exports. The record then
// settles as loaded or failed and is never instantiated again unless an HMR
// collaborator evicts it.
//
// # Exports
//
// Exports is a mutable, ordered property container. Properties are either
// plain values (CommonJS assignments) or getters (ESM live bindings).
// InteropESM builds an ES namespace view over a CommonJS-shaped value.
package module
