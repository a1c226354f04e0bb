// Package timezone provides timezone and calendar-date utilities for the application.
//
// Usage Examples:
//
//  1. Current time and calendar date in the app timezone:
//     now := timezone.Now()
//     today := timezone.DateOnly(now)         // time of day dropped
//
//  2. Calendar dates coming from requests or DATE columns:
//     d, err := timezone.ParseDate("2024-03-12")
//     same := timezone.DateOnly(row.StartDate).Equal(d)
//
//  3. Formatting times in app timezone:
//     formatted := timezone.Format(time.Now(), "2006-01-02 15:04:05")
//
// The timezone is configured via the APP_TIMEZONE environment variable
// and is automatically initialized when the package is imported.
// Use standard IANA timezone database names for reliable cross-platform compatibility.
package timezone
