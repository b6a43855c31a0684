package dcql

// ResolveAll expands patterns into the set of concrete ClaimPaths they
// denote. A pattern with no wildcard resolves directly to one path.
// A pattern with a wildcard is expanded against availablePaths, keeping
// every element of availablePaths the pattern matches; when
// availablePaths is nil (unknown), wildcard patterns are skipped rather
// than guessed at, since there is nothing concrete to expand against.
func ResolveAll(patterns []ClaimPattern, availablePaths []ClaimPath) []ClaimPath {
	seen := make(map[string]struct{})
	var out []ClaimPath

	add := func(path ClaimPath) {
		k := path.String()
		if _, ok := seen[k]; ok {
			return
		}
		seen[k] = struct{}{}
		out = append(out, path)
	}

	for _, pattern := range patterns {
		if path, ok := pattern.TryResolve(); ok {
			add(path)
			continue
		}
		if availablePaths == nil {
			continue
		}
		for _, candidate := range availablePaths {
			if pattern.Matches(candidate) {
				add(candidate)
			}
		}
	}
	return out
}
