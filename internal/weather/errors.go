package weather

import "errors"

var (
	// ErrInvalidInput is returned when forecast data does not have the expected shape.
	ErrInvalidInput = errors.New("invalid forecast input")

	// ErrInvalidArgument is returned for caller mistakes such as a non-positive day cap.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrUnauthorized is returned when the provider rejects the API key.
	ErrUnauthorized = errors.New("weather provider rejected api key")

	// ErrLocationNotFound is returned when the provider does not know the location.
	ErrLocationNotFound = errors.New("location not found")

	// ErrUnexpectedResponse is returned when a current-conditions payload lacks
	// the fields the dashboard needs.
	ErrUnexpectedResponse = errors.New("unexpected response from weather provider")

	// ErrNoData is returned by stores that hold nothing for a location.
	ErrNoData = errors.New("no weather data for location")
)
