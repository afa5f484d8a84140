// Package browser hands storefront links to the desktop browser.
package browser

import (
	"fmt"
	"os/exec"
	"runtime"
	"strconv"
	"strings"
)

// command builds the OS-specific launcher. Replaced in tests.
var command = func(name string, args ...string) *exec.Cmd {
	return exec.Command(name, args...)
}

// Open opens url in the user's default browser without waiting for it.
func Open(url string) error {
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return fmt.Errorf("browser.Open: refusing non-http url %q", url)
	}
	switch runtime.GOOS {
	case "darwin":
		return command("open", url).Start()
	case "linux":
		return command("xdg-open", url).Start()
	case "windows":
		return command("rundll32", "url.dll,FileProtocolHandler", url).Start()
	default:
		return fmt.Errorf("browser.Open: unsupported OS: %s", runtime.GOOS)
	}
}

// ProductURL is the web storefront page of a product.
func ProductURL(webURL string, id int64) string {
	return strings.TrimRight(webURL, "/") + "/product/" + strconv.FormatInt(id, 10)
}
