// ABOUTME: Version information for xlaudio
// ABOUTME: Product identity reported by telemetry, mDNS, and the CLI
package version

const (
	// Version is the current release
	Version = "0.3.0"

	// Product is the product name
	Product = "xlaudio"

	// Manufacturer identifies the board vendor
	Manufacturer = "xlaudio"
)

// String returns the product and version for banners
func String() string {
	return Product + " " + Version
}
