// Package datasource declares the interfaces a datasource consumes from its
// host application, so the SQL layer stays decoupled from any concrete
// logging or metrics implementation.
package datasource

// Logger is the logging surface a datasource writes its operation logs to.
// logging.Logger satisfies it.
type Logger interface {
	Debug(args ...any)
	Debugf(pattern string, args ...any)
	Log(args ...any)
	Logf(pattern string, args ...any)
	Error(args ...any)
	Errorf(pattern string, args ...any)
}
