// Package timezones contributes a "timezone" control variant: a select
// pre-filled with IANA zone names. It also ships a JSON search endpoint that
// clients can query while the user types.
//
// The zone list is embedded from data/zones.txt. Register adds the variant
// to a control registry and Routes mounts the search handler on chi.
package timezones
