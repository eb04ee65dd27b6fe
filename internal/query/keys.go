package query

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
)

// Keys are structured identifiers for cached read results: resource name,
// operation qualifier, then the operation's own parameters. Parameter
// payloads are hashed so equal filters yield equal keys and unequal
// filters never collide on a truncated prefix.
type Key string

const (
	PrefixEventsList    = "events:list"
	PrefixEventsAdmin   = "events:admin"
	PrefixEventsDetail  = "events:detail"
	PrefixSubscriptions = "subscriptions"
)

func EventsList(params string) Key {
	return Key(PrefixEventsList + ":" + sha1Hex(params))
}

func EventsTop() Key {
	return Key("events:top")
}

func EventsAdminList() Key {
	return Key(PrefixEventsAdmin + ":list")
}

func EventDetail(eventID int) Key {
	return Key(fmt.Sprintf("%s:%d", PrefixEventsDetail, eventID))
}

func UserSubscriptions(userID int) Key {
	return Key(fmt.Sprintf("%s:mine:%d", PrefixSubscriptions, userID))
}

func UserEventSubscription(eventID, userID int) Key {
	return Key(fmt.Sprintf("%s:event:%d:user:%d", PrefixSubscriptions, eventID, userID))
}

func EventRoster(eventID int) Key {
	return Key(fmt.Sprintf("%s:admin:%d", PrefixSubscriptions, eventID))
}

func sha1Hex(s string) string {
	sum := sha1.Sum([]byte(s))

	return hex.EncodeToString(sum[:])
}
