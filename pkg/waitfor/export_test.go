package waitfor

// WithClock exposes withClock to the external test package.
var WithClock = withClock
