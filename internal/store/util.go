package store

import "strconv"

func itoa(n int) string {
	return strconv.Itoa(n)
}

func atoi(s string) (int, error) {
	return strconv.Atoi(s)
}
