// Package services contains the application services of the TaskMaster
// client: session lifecycle over the token endpoint and local credential
// storage, the task workspace controller that mirrors server state, and a
// debounced user search.
package services
