package main

import "net/http"

// errorsGET exports the error log as a JSON diagnostics report.
func (app *application) errorsGET(w http.ResponseWriter, r *http.Request) {
	report, err := app.errLog.Export()
	if err != nil {
		app.serverError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(report)
}

// errorsDELETE clears the error log.
func (app *application) errorsDELETE(w http.ResponseWriter, r *http.Request) {
	app.errLog.Clear()
	w.WriteHeader(http.StatusNoContent)
}
