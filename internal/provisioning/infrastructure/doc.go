// Package infrastructure implements the cloud composers of a stack: the
// reserved address on Hetzner Cloud and the DNS record on Cloudflare or
// Azure DNS.
package infrastructure
