// Package resources provides static asset handling for the UI server.
package resources

// StaticDirectoryPath is the path to static assets from the project root.
const StaticDirectoryPath = "internal/ui/resources/static"

// DatastarScript is the Datastar client bundle matching the datastar-go SDK.
const DatastarScript = "https://cdn.jsdelivr.net/gh/starfederation/datastar@1.0.0-RC.6/bundles/datastar.js"

// Stylesheet is the console stylesheet.
const Stylesheet = "app.css"
