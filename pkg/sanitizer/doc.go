// Package sanitizer normalizes raw form input before validation and storage.
//
// All functions are pure: they take a raw string and return a cleaned one,
// never an error. Invalid input degrades to the empty string so downstream
// validation rules see a stable signal.
//
// Text strips markup with bluemonday's strict policy and escapes anything
// meaningful to an HTML renderer, so redisplayed values cannot inject markup.
// Email returns either the empty string or a structurally valid, normalized
// address; sanitizing twice yields the same result.
package sanitizer
