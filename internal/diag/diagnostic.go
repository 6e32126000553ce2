package diag

import (
	"melody/internal/source"
)

type Note struct {
	Location source.Location `json:"location" msgpack:"location"`
	Msg      string          `json:"message" msgpack:"message"`
}

// Diagnostic is one finding reported for a template file.
type Diagnostic struct {
	Severity Severity        `json:"severity" msgpack:"severity"`
	Code     Code            `json:"code" msgpack:"code"`
	Message  string          `json:"message" msgpack:"message"`
	Path     string          `json:"path" msgpack:"path"`
	Primary  source.Location `json:"location" msgpack:"location"`
	Advice   string          `json:"advice,omitempty" msgpack:"advice,omitempty"`
	Notes    []Note          `json:"notes,omitempty" msgpack:"notes,omitempty"`
	// Frame is the pre-rendered, uncoloured code frame, if any.
	Frame string `json:"frame,omitempty" msgpack:"frame,omitempty"`
}

func New(sev Severity, code Code, path string, primary source.Location, msg string) Diagnostic {
	return Diagnostic{
		Severity: sev,
		Code:     code,
		Path:     path,
		Primary:  primary,
		Message:  msg,
	}
}

func NewError(code Code, path string, primary source.Location, msg string) Diagnostic {
	return New(SevError, code, path, primary, msg)
}

func (d Diagnostic) WithNote(loc source.Location, msg string) Diagnostic {
	d.Notes = append(d.Notes, Note{Location: loc, Msg: msg})
	return d
}

func (d Diagnostic) WithAdvice(advice string) Diagnostic {
	d.Advice = advice
	return d
}
