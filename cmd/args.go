package cmd

// legacyFlags maps multi-letter single-dash flags of the original tool to
// their long form, pflag only knows single letter shorthands.
var legacyFlags = map[string]string{
	"-li": "--log-input",
}

// NormalizeArgs rewrites legacy flags, everything after "--" is left alone
func NormalizeArgs(args []string) []string {
	normalized := make([]string, 0, len(args))
	for i, arg := range args {
		if arg == "--" {
			return append(normalized, args[i:]...)
		}
		if long, ok := legacyFlags[arg]; ok {
			arg = long
		}
		normalized = append(normalized, arg)
	}
	return normalized
}
