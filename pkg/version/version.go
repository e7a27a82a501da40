package version

// Set at build time with -ldflags "-X github.com/hello-sparql/explorer/pkg/version.version=...".
var version = "0.1.0"

func Version() string {
	return version
}

func UserAgent() string {
	return "hello-sparql-explorer/" + version
}
