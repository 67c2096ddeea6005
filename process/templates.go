package process

import (
	"bytes"
	"fmt"
	"path"
	"path/filepath"
	"strings"
	"text/template"

	sprig "github.com/go-task/slim-sprig/v3"

	"colorsonly/common"
	"colorsonly/config"
)

// Values is a struct that holds variables we make available for template expansion
type Values struct {
	Context    string
	Name       string
	Ext        string
	SourceFile string
	Mode       string
	Style      string
}

func newValues(name config.TemplateFieldName, src string, mode common.FilterMode, style common.OutputStyle) Values {
	src = filepath.ToSlash(src)
	return Values{
		Context:    string(name),
		Name:       strings.TrimSuffix(path.Base(src), path.Ext(src)),
		Ext:        style.Ext(),
		SourceFile: src,
		Mode:       mode.String(),
		Style:      style.String(),
	}
}

func expandTemplate(name config.TemplateFieldName, field string, values Values) (string, error) {
	tmpl, err := template.New(string(name)).Funcs(sprig.FuncMap()).Parse(field)
	if err != nil {
		return "", fmt.Errorf("unable to parse template field %s: %w", name, err)
	}

	buf := new(bytes.Buffer)
	if err := tmpl.Execute(buf, values); err != nil {
		return "", err
	}
	return buf.String(), nil
}
