package process

import (
	"path/filepath"
	"strings"
	"testing"

	"colorsonly/common"
	"colorsonly/config"
)

func TestNewValues(t *testing.T) {
	v := newValues(config.OutputNameTemplateFieldName, filepath.Join("themes", "dark.theme.css"), common.FilterModeNocolors, common.OutputStyleMinified)

	want := Values{
		Context:    "name_template",
		Name:       "dark.theme",
		Ext:        ".min.css",
		SourceFile: "themes/dark.theme.css",
		Mode:       "nocolors",
		Style:      "minified",
	}
	if v != want {
		t.Errorf("newValues() = %+v, want %+v", v, want)
	}
}

func TestExpandTemplate(t *testing.T) {
	values := newValues(config.OutputNameTemplateFieldName, "site.css", common.FilterModeColors, common.OutputStylePretty)

	tests := []struct {
		name    string
		field   string
		want    string
		wantErr string
	}{
		{name: "plain text", field: "fixed", want: "fixed"},
		{name: "values", field: "{{ .Context }}:{{ .Name }}{{ .Ext }}:{{ .Mode }}:{{ .Style }}", want: "name_template:site.css:colors:pretty"},
		{name: "sprig functions", field: `{{ .Name | upper }}-{{ "a b" | replace " " "_" }}`, want: "SITE-a_b"},
		{name: "conditionals", field: `{{ if eq .Mode "colors" }}only{{ else }}no{{ end }}-{{ .Name }}`, want: "only-site"},
		{name: "parse error", field: "{{ .Name", wantErr: "unable to parse template field name_template"},
		{name: "execution error", field: "{{ .Missing }}", wantErr: "Missing"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := expandTemplate(config.OutputNameTemplateFieldName, tt.field, values)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("expandTemplate() error = %v, want containing %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("expandTemplate() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("expandTemplate() = %q, want %q", got, tt.want)
			}
		})
	}
}
