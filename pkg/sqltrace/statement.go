package sqltrace

import "strings"

// operation returns the upper-cased leading keyword of query.
func operation(query string) string {
	fields := strings.Fields(query)
	if len(fields) == 0 {
		return ""
	}
	return strings.ToUpper(fields[0])
}

// table returns the first table named after FROM, INTO, UPDATE, JOIN or
// TABLE. Quoting and schema prefixes are kept as written.
func table(query string) string {
	fields := strings.Fields(query)
	for i := 0; i < len(fields)-1; i++ {
		switch strings.ToUpper(fields[i]) {
		case "FROM", "INTO", "UPDATE", "JOIN", "TABLE":
			next := i + 1
			if strings.EqualFold(fields[next], "IF") {
				// IF [NOT] EXISTS
				next += 2
				if next < len(fields) && strings.EqualFold(fields[next-1], "NOT") {
					next++
				}
			}
			if next >= len(fields) {
				return ""
			}
			return strings.TrimRight(fields[next], ";,(")
		}
	}
	return ""
}
