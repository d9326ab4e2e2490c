package main

import (
	"net/http"

	"github.com/rs/cors"
)

func (app *application) routes() http.Handler {
	mux := http.NewServeMux()

	standard := func(next http.Handler) http.Handler {
		return app.recoverPanic(app.logRequest(next))
	}

	mux.Handle("POST /api/calculate", standard(http.HandlerFunc(app.calculatePOST)))

	mux.Handle("GET /api/profile", standard(http.HandlerFunc(app.profileGET)))
	mux.Handle("PUT /api/profile", standard(http.HandlerFunc(app.profilePUT)))

	mux.Handle("GET /api/workouts", standard(http.HandlerFunc(app.workoutsGET)))
	mux.Handle("POST /api/workouts", standard(http.HandlerFunc(app.workoutsPOST)))

	mux.Handle("GET /api/errors", standard(http.HandlerFunc(app.errorsGET)))
	mux.Handle("DELETE /api/errors", standard(http.HandlerFunc(app.errorsDELETE)))

	mux.Handle("GET /api/healthy", standard(http.HandlerFunc(app.healthy)))

	// The mobile UI is served from its own dev origin during development.
	c := cors.New(cors.Options{
		AllowedOrigins: []string{"http://localhost:*", "capacitor://localhost"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowedHeaders: []string{"Content-Type"},
	})
	return c.Handler(mux)
}
