// Package services implements the driving port interfaces.
// Services contain the core pipeline logic and orchestrate
// calls to driven ports (adapters).
//
// Services are pure Go and depend only on domain, ports and
// the in-process classifier.
package services
