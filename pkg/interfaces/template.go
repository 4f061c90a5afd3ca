package interfaces

import "io"

// TemplateRenderer renders named view templates.
type TemplateRenderer interface {
	RenderTemplate(name string, data any, out ...io.Writer) (string, error)
}
