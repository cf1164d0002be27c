package catalog

import "strings"

type FilterOptions struct {
	Tags      []string
	FreeWords string
}

func containsAny(hay []string, needles []string) bool {
	for _, n := range needles {
		for _, h := range hay {
			if strings.EqualFold(h, n) {
				return true
			}
		}
	}
	return false
}

// Filter keeps the templates carrying any of opt.Tags whose name or
// description contains every free word.
func Filter(templates []Template, opt FilterOptions) []Template {
	out := []Template{}
	for _, t := range templates {
		if len(opt.Tags) > 0 && !containsAny(t.Tags, opt.Tags) {
			continue
		}
		if opt.FreeWords != "" {
			text := strings.ToLower(t.Name + " " + t.Description)
			ok := true
			for _, k := range strings.Fields(opt.FreeWords) {
				if !strings.Contains(text, strings.ToLower(k)) {
					ok = false
					break
				}
			}
			if !ok {
				continue
			}
		}
		out = append(out, t)
	}
	return out
}
