package services

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

const coordinateMarker = "/@"

// ParseError reports a map URL whose coordinate segment could not be read.
type ParseError struct {
	URL    string
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("coordinates: %s in %q: %v", e.Reason, e.URL, e.Err)
	}
	return fmt.Sprintf("coordinates: %s in %q", e.Reason, e.URL)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ParseCoordinates extracts latitude and longitude from a map URL of the form
// ".../@<lat>,<lon>,<zoom>z/...".
func ParseCoordinates(url string) (lat, lon float64, err error) {
	idx := strings.Index(url, coordinateMarker)
	if idx < 0 {
		return 0, 0, &ParseError{URL: url, Reason: "missing " + coordinateMarker + " marker"}
	}

	segment := url[idx+len(coordinateMarker):]
	if slash := strings.IndexByte(segment, '/'); slash >= 0 {
		segment = segment[:slash]
	}

	parts := strings.Split(segment, ",")
	if len(parts) < 2 {
		return 0, 0, &ParseError{URL: url, Reason: "expected latitude and longitude"}
	}

	lat, err = parseDegrees(parts[0])
	if err != nil {
		return 0, 0, &ParseError{URL: url, Reason: "invalid latitude", Err: err}
	}
	lon, err = parseDegrees(parts[1])
	if err != nil {
		return 0, 0, &ParseError{URL: url, Reason: "invalid longitude", Err: err}
	}
	return lat, lon, nil
}

// parseDegrees accepts plain finite decimals only; hex floats, Inf and NaN
// are rejected.
func parseDegrees(token string) (float64, error) {
	if strings.ContainsAny(token, "xX") {
		return 0, fmt.Errorf("hex notation in %q", token)
	}
	v, err := strconv.ParseFloat(token, 64)
	if err != nil {
		return 0, err
	}
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, fmt.Errorf("non-finite value %q", token)
	}
	return v, nil
}
