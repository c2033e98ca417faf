// Package consent resolves raw consent records into the set of engagement
// channels the CRM is permitted to use. This is the hard gate in front of the
// next-best-action engine: an empty result means no engagement of any kind may
// be recommended.
package consent

import "github.com/pharmacrm/ai-services/internal/domain/model"

// Engagement channel identifiers.
const (
	ChannelEmail           = "email"
	ChannelPhone           = "phone"
	ChannelInPersonVisit   = "in_person_visit"
	ChannelRemoteDetailing = "remote_detailing"
	ChannelWebinar         = "webinar"
	ChannelConference      = "conference"

	// ChannelNone is the no-action terminal used when nothing is consented.
	ChannelNone = "none"
)

// StatusGranted is the only consent status that permits engagement.
const StatusGranted = "granted"

// consentChannels maps consent types to engagement channels. Consent types
// outside this table are silently ignored; they are not an error.
var consentChannels = map[string]string{
	"email":            ChannelEmail,
	"phone":            ChannelPhone,
	"visit":            ChannelInPersonVisit,
	"remote_detailing": ChannelRemoteDetailing,
}

// Channels returns the channels with granted consent, de-duplicated, in the
// order the grants first appear in the input. The ordering is deterministic
// and is relied on downstream as the NBA tie-break. An empty or all-revoked
// input yields an empty slice.
func Channels(consents []model.ConsentRecord) []string {
	var granted []string
	seen := make(map[string]struct{}, len(consentChannels))
	for _, c := range consents {
		if c.Status != StatusGranted {
			continue
		}
		ch, ok := consentChannels[c.ConsentType]
		if !ok {
			continue
		}
		if _, dup := seen[ch]; dup {
			continue
		}
		seen[ch] = struct{}{}
		granted = append(granted, ch)
	}
	return granted
}
