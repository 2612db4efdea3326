package mux

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"reflect"
	"runtime"
)

// HandlerName returns the fully qualified name of the code serving h:
//
//	example.com/app/widgets.(*Controller).Show-fm  method value
//	example.com/app/widgets.ListWidgets            plain function
//	example.com/app/widgets.(*Static).ServeHTTP    http.Handler value
//
// It returns "" for nil handlers and subrouters.
func HandlerName(h http.Handler) string {
	switch fn := h.(type) {
	case nil, *Router:
		return ""
	case http.HandlerFunc:
		if fn == nil {
			return ""
		}
		if f := runtime.FuncForPC(reflect.ValueOf(fn).Pointer()); f != nil {
			return f.Name()
		}
		return ""
	}

	t := reflect.TypeOf(h)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
		return fmt.Sprintf("%s.(*%s).ServeHTTP", t.PkgPath(), t.Name())
	}

	return fmt.Sprintf("%s.%s.ServeHTTP", t.PkgPath(), t.Name())
}

// ResponseJSON encodes v as JSON and writes it with the given status code.
// If encoding fails, a 500 Internal Server Error is written instead.
func ResponseJSON(w http.ResponseWriter, code int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(buf.Bytes())
}
