// Package azuredns upserts the A record of a public stack in an Azure DNS
// zone. Zones are configured by resource ID and matched by name.
package azuredns
