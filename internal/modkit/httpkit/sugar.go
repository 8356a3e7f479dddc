package httpkit

import (
	"net/http"

	phttp "tasker/internal/platform/net/http"
)

// PostJSON mounts a JSON body handler under POST
func PostJSON[T any](r Router, path string, h func(*http.Request, T) (any, error)) {
	phttp.PostJSON(r, path, h)
}

// PatchJSON mounts a JSON body handler under PATCH
func PatchJSON[T any](r Router, path string, h func(*http.Request, T) (any, error)) {
	phttp.PatchJSON(r, path, h)
}

// Get mounts a body-less handler under GET
func Get(r Router, path string, h func(*http.Request) (any, error)) {
	phttp.GetJSON(r, path, h)
}

// Post mounts a body-less handler under POST
func Post(r Router, path string, h func(*http.Request) (any, error)) {
	r.Post(path, Call(h))
}

// Patch mounts a body-less handler under PATCH
func Patch(r Router, path string, h func(*http.Request) (any, error)) {
	r.Patch(path, Call(h))
}

// Delete mounts a body-less handler under DELETE
func Delete(r Router, path string, h func(*http.Request) (any, error)) {
	phttp.DeleteJSON(r, path, h)
}
