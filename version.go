package waypoint

// Version is the release of the waypoint module.
const Version = "0.3.0"
