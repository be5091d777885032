package gen

import _ "embed"

//go:embed templates/model.tmpl
var modelTemplateSrc string

//go:embed templates/model_test.tmpl
var modelTestTemplateSrc string

// ModelTemplate renders the schema registration artifact for a model.
var ModelTemplate = Template{Name: "model", Source: modelTemplateSrc}

// ModelTestTemplate renders the companion test scaffold for a model.
var ModelTestTemplate = Template{Name: "model_test", Source: modelTestTemplateSrc}
