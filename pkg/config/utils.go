package config

import (
	"fmt"
	"os"
	"strings"
)

// replacePathVars 替换路径模板变量 {{.Name}}
func replacePathVars(tpl string, vars map[string]string) string {
	pairs := make([]string, 0, len(vars)*2)
	for k, v := range vars {
		pairs = append(pairs, "{{."+k+"}}", v)
	}
	return strings.NewReplacer(pairs...).Replace(tpl)
}

// validateConfigPath 路径必须是已存在的普通文件
func validateConfigPath(path string) error {
	if path == "" {
		return fmt.Errorf("%w: empty path", os.ErrInvalid)
	}

	fi, err := os.Stat(path)
	if err != nil {
		return err
	}
	if fi.IsDir() {
		return fmt.Errorf("%s is a directory", path)
	}
	return nil
}
