package db

// timeLayout is fixed width and always UTC, so stored timestamps order
// lexically and range filters can compare strings.
const timeLayout = "2006-01-02 15:04:05.000"

// sessionColumns lists the practice_sessions columns in scan order.
const sessionColumns = `id, start_time, end_time, duration_ms, intensity, satisfaction, notes`
