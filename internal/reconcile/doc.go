// Package reconcile merges the three sources of a collection view (the default
// view, the persisted preference and the URL query) and plans where a changed
// view has to be written back.
//
// Everything here is pure: inputs are plain values, outputs are plain values,
// and nothing is fetched, written or navigated. Package persistentview performs
// the side effects a Plan describes.
package reconcile
