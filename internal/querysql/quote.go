package querysql

import "strings"

// QuoteIdentifier returns name, double-quoted when SQLite would not accept
// it bare.
func QuoteIdentifier(name string) string {
	if needsQuoting(name) {
		return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
	}
	return name
}

// needsQuoting reports identifiers that are empty, contain characters
// outside [A-Za-z0-9_], start with a digit, or collide with a keyword.
func needsQuoting(name string) bool {
	if len(name) == 0 {
		return true
	}

	c := name[0]
	if !isLetter(c) && c != '_' {
		return true
	}
	for i := 1; i < len(name); i++ {
		c = name[i]
		if !isLetter(c) && !isDigit(c) && c != '_' {
			return true
		}
	}

	switch strings.ToUpper(name) {
	case "SELECT", "FROM", "WHERE", "AND", "OR", "NOT", "NULL", "TRUE", "FALSE",
		"INSERT", "UPDATE", "DELETE", "CREATE", "DROP", "TABLE", "INDEX",
		"JOIN", "ON", "AS", "IN", "IS", "LIKE", "BETWEEN", "EXISTS", "CASE",
		"WHEN", "THEN", "ELSE", "END", "ORDER", "BY", "GROUP", "HAVING", "LIMIT",
		"OFFSET", "UNION", "ALL", "DISTINCT", "VALUES", "SET", "INTO", "PRIMARY",
		"KEY", "REFERENCES", "DEFAULT", "CHECK", "UNIQUE", "ASC", "DESC":
		return true
	}
	return false
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
