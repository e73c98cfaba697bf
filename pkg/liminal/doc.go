// Package liminal holds the gateway's adaptive state: consciousness level,
// temporal profile, echo anomaly analysis, ritual-phase startup gating, and
// the metamorphic transitions ticked on each update. All mutation of this
// state happens through Controller.Update, invoked periodically by a
// scheduled job, or through the narrow RecordEcho call on the request path.
package liminal
