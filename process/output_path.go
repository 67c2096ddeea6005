package process

import (
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/gosimple/slug"
	"go.uber.org/zap"

	"colorsonly/common"
	"colorsonly/config"
	"colorsonly/state"
)

// buildOutputPath returns constructed output file path/name based on various
// input parameters. "src" is source path relative to the processed directory
// or archive. It uses either default naming scheme or user-defined template
// and takes into account whether to preserve source directory structure on
// the output. It cleans up path and if requested transliterates it.
func buildOutputPath(src, dst string, mode common.FilterMode, style common.OutputStyle, env *state.LocalEnv) string {
	outDir := determineOutputDir(src, dst, env)
	defaultFile := buildDefaultFileName(src, style, env)

	if env.Cfg.Output.NameTemplate == "" {
		return filepath.Join(outDir, defaultFile)
	}

	expandedName := expandOutputNameTemplate(src, mode, style, env)
	if expandedName == "" {
		// fallback to default name if template expansion failed
		return filepath.Join(outDir, defaultFile)
	}

	return assemblePathWithSubdirs(outDir, expandedName, style, env)
}

func determineOutputDir(src, dst string, env *state.LocalEnv) string {
	if env.NoDirs {
		return dst
	}
	return filepath.Join(dst, filepath.Dir(src))
}

func buildDefaultFileName(src string, style common.OutputStyle, env *state.LocalEnv) string {
	baseName := strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))
	if env.Cfg.Output.FileNameTransliterate {
		baseName = slug.Make(baseName)
	}
	return config.CleanFileName(baseName) + style.Ext()
}

func expandOutputNameTemplate(src string, mode common.FilterMode, style common.OutputStyle, env *state.LocalEnv) string {
	values := newValues(config.OutputNameTemplateFieldName, src, mode, style)
	expandedName, err := expandTemplate(config.OutputNameTemplateFieldName, env.Cfg.Output.NameTemplate, values)
	if err != nil {
		env.Log.Warn("Unable to prepare output filename", zap.Error(err))
		return ""
	}
	return filepath.FromSlash(strings.TrimSpace(expandedName))
}

// assemblePathWithSubdirs takes an expanded template name (which may contain
// path separators for subdirectories) and assembles it into a full output path,
// cleaning and transliterating segments as needed. Extension is added unless
// template already produced it.
func assemblePathWithSubdirs(outDir, expandedName string, style common.OutputStyle, env *state.LocalEnv) string {
	outExt := style.Ext()
	pathSegments := splitPath(expandedName)

	if len(pathSegments) == 0 {
		return outDir
	}

	last := pathSegments[len(pathSegments)-1]
	if len(last) > len(outExt) && strings.EqualFold(last[len(last)-len(outExt):], outExt) {
		last = last[:len(last)-len(outExt)]
	}
	fileName := cleanPathSegment(last, env) + outExt

	dirParts := make([]string, 0, len(pathSegments)+1)
	dirParts = append(dirParts, outDir)
	for _, segment := range pathSegments[:len(pathSegments)-1] {
		dirParts = append(dirParts, cleanPathSegment(segment, env))
	}
	dirParts = append(dirParts, fileName)
	return filepath.Join(dirParts...)
}

// splitPath breaks path into non-empty segments, "." and ".." are dropped so
// template could not escape destination directory.
func splitPath(path string) []string {
	path = strings.TrimSuffix(path, string(os.PathSeparator))
	segments := make([]string, 0, 8)

	for head, tail := filepath.Split(path); ; head, tail = filepath.Split(head) {
		if tail != "" && tail != "." && tail != ".." {
			segments = slices.Insert(segments, 0, tail)
		}
		head = strings.TrimSuffix(head, string(os.PathSeparator))
		if head == "" || head == path {
			break
		}
		path = head
	}
	return segments
}

func cleanPathSegment(segment string, env *state.LocalEnv) string {
	if env.Cfg.Output.FileNameTransliterate {
		segment = slug.Make(segment)
	}
	return config.CleanFileName(segment)
}
