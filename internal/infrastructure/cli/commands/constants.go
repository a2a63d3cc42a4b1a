package commands

const (
	msgNoCalculationsFound = "No calculations found"
)
