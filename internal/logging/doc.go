// Package logging builds the process logger and adapts it for watermill.
package logging
