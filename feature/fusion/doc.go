// Package fusion exposes the file-merging workflow over HTTP.
//
// A session (identified by the X-Session-ID header) accumulates
// uploaded files, a merge result, and a transformation pipeline:
//
//	POST   /fusion/files         upload CSV/XLSX/XLS/JSON files
//	GET    /fusion/files         list loaded files
//	DELETE /fusion/files/:id     remove one file
//	DELETE /fusion/files         reset the session
//	POST   /fusion/merge         merge the loaded files
//	GET    /fusion/columns       reconciled column report
//	POST   /fusion/steps         append a transformation step
//	DELETE /fusion/steps/:index  remove one step
//	DELETE /fusion/steps         reset the pipeline
//	GET    /fusion/transformers  list plugin transformers
//	GET    /fusion/export        download the result
//
// Transformation steps are replayed from the retained merge result,
// so editing the pipeline never accumulates stale state. Failed
// operations return a JSON error envelope and leave the session
// untouched.
package fusion
