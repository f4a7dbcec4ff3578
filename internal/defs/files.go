package defs

// Common file names used across the project.
const (
	// SetupJSON is the project descriptor recording added components and dependencies.
	SetupJSON = "webgme-setup.json"

	// PackageJSON is the npm package manifest.
	PackageJSON = "package.json"

	// PackageTemplate is the bundled manifest skeleton rendered at init.
	PackageTemplate = "package.template.json.tmpl"

	// AppJS is the generated application entry point.
	AppJS = "app.js"

	// GlobalsJS is the test fixture copied into the test directory.
	GlobalsJS = "globals.js"

	// GitIgnore is the ignore file copied only when absent.
	GitIgnore = ".gitignore"

	// WebGMEConfigJS is the generated framework config under config/.
	WebGMEConfigJS = "config.webgme.js"
)

// Directory names inside a generated project.
const (
	SrcDir    = "src"
	TestDir   = "test"
	ConfigDir = "config"
)

// DefaultWebGMEVersion is the framework version constraint pinned into new manifests.
const DefaultWebGMEVersion = "^2.42.0"

// DefaultPackageManager is the binary used by the start command.
const DefaultPackageManager = "npm"
