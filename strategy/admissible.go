package strategy

// underRatio returns the roles whose live share sits below their target
// ratio, in ascending index order. With total == 0 the share is undefined,
// so the result is empty and callers fall through to the limit check.
func underRatio(counts []int, total int, ratios []float64) []int {
	if total == 0 {
		return nil
	}

	var roles []int
	for t := range counts {
		if float64(counts[t])/float64(total) < ratios[t] {
			roles = append(roles, t)
		}
	}

	return roles
}

// underLimit returns the roles with spare hard capacity, in ascending index
// order.
func underLimit(counts []int, limits []int) []int {
	var roles []int
	for t := range counts {
		if counts[t] < limits[t] {
			roles = append(roles, t)
		}
	}

	return roles
}
