package projection

import (
	"regexp"
	"slices"
)

var placeholder = regexp.MustCompile(`\{(\w+)\}`)

// ExtractVariables lists the {name} placeholders in content, first occurrence order
func ExtractVariables(content string) []string {
	vars := []string{}
	for _, m := range placeholder.FindAllStringSubmatch(content, -1) {
		if !slices.Contains(vars, m[1]) {
			vars = append(vars, m[1])
		}
	}
	return vars
}

// Render substitutes known placeholders; unknown ones are left as written
func Render(content string, values map[string]string) string {
	return placeholder.ReplaceAllStringFunc(content, func(m string) string {
		if v, ok := values[m[1:len(m)-1]]; ok {
			return v
		}
		return m
	})
}

// MissingVariables returns the placeholders of content that values lacks
func MissingVariables(content string, values map[string]string) []string {
	var missing []string
	for _, v := range ExtractVariables(content) {
		if _, ok := values[v]; !ok {
			missing = append(missing, v)
		}
	}
	return missing
}
