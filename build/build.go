package build

var (
	Version = "0.2.0"
	Date    = ""
)
