/*
Package ports defines the driven ports (interfaces) for the block engine.

These interfaces decouple the core model from external implementations,
allowing block shapes to come from various backends (frontmatter repositories,
in-memory catalogs) without the core knowing about any of them.

# Key Interfaces

  - DefinitionLoader: Responsible for loading block Definitions by type name.
  - Watchable: Optional capability for loaders that can signal backend changes.
*/
package ports
