package mcdata

// Version is the release of the engine and its command line.
const Version = "0.1.0"
