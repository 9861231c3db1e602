package utils

import "strings"

// SubstituteVariables replaces every literal {{key}} occurrence with its value.
// Values are inserted as-is: no escaping, no nested expansion.
func SubstituteVariables(s string, vars map[string]string) string {
	if s == "" || len(vars) == 0 {
		return s
	}
	pairs := make([]string, 0, len(vars)*2)
	for k, v := range vars {
		pairs = append(pairs, "{{"+k+"}}", v)
	}
	return strings.NewReplacer(pairs...).Replace(s)
}
