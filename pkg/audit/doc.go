/*
Package audit emits security audit events for authentication attempts and
data-plane mutations.

Events are written as RFC5424 syslog lines so they can be shipped to any
syslog collector without translation. Each event carries structured data
blocks identifying the acting user, the subject of the change, and the
client address.

Auditing is on by default and can be disabled with ENVSPACE_AUDIT_ENABLED=false.
*/
package audit
