package ports

import "errors"

// ErrAccessDenied marca una credencial rechazada por el source externo.
// No se reintenta nunca: repetir la request no va a ayudar, y el caller
// tiene que enterarse de que su credencial es inválida.
var ErrAccessDenied = errors.New("access denied by upstream source")
