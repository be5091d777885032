// Package gen turns declarative field specifications into model and
// test source artifacts and triggers the downstream migration commands.
//
// Generation is fail-fast: field types are resolved before any template
// renders, and both artifacts render before any external process runs.
// The migration step is deliberately not transactional with the written
// artifacts; on migration failure the generation must be retried
// manually.
package gen
