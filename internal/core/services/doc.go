// Package services implements the driving port interfaces.
// Services contain the core business logic: boundary detection,
// entry classification, distillation, and context composition.
//
// Services are pure Go with no external dependencies; all I/O goes
// through the driven ports.
package services
