package catalog

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// Identity is the stable identifier of a cataloged asset: the GUID of its
// source plus a sub id distinguishing the products built from that source.
// The zero value is invalid and stands for "not resolved against a catalog".
type Identity struct {
	GUID  uuid.UUID
	SubID uint32
}

// InvalidIdentity is the zero identity.
var InvalidIdentity = Identity{}

// NewIdentity builds an identity from its two components.
func NewIdentity(guid uuid.UUID, subID uint32) Identity {
	return Identity{GUID: guid, SubID: subID}
}

// IsValid reports whether the identity refers to a cataloged asset.
func (id Identity) IsValid() bool {
	return id.GUID != uuid.Nil
}

// String renders the identity in the "<guid>:<subid>" form used by catalog
// and hint files, with the sub id in lower-case hex.
func (id Identity) String() string {
	return id.GUID.String() + ":" + strconv.FormatUint(uint64(id.SubID), 16)
}

// ParseIdentity parses the "<guid>:<subid>" form produced by String. The sub
// id part is hex; a missing sub id part defaults to zero.
func ParseIdentity(s string) (Identity, error) {
	guidStr, subStr, found := strings.Cut(s, ":")
	g, err := uuid.Parse(guidStr)
	if err != nil {
		return InvalidIdentity, fmt.Errorf("invalid asset identity %q: %w", s, err)
	}
	var sub uint64
	if found && subStr != "" {
		sub, err = strconv.ParseUint(subStr, 16, 32)
		if err != nil {
			return InvalidIdentity, fmt.Errorf("invalid sub id in asset identity %q: %w", s, err)
		}
	}
	return Identity{GUID: g, SubID: uint32(sub)}, nil
}
