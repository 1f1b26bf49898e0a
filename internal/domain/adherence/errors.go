package adherence

import "fmt"

// ValidationError: entrada mal formada (ventana invertida, registros inválidos).
// Es el único error que aborta la generación del reporte.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s: %s", e.Field, e.Reason)
}
