// Package user describes the synthetic user records written by the
// generator and read back by the scan.
package user

import (
	"fmt"

	"github.com/pingcap-incubator/asbatch/store"
	"github.com/pingcap/errors"
)

// Bin names.
const (
	BinUsername    = "username"
	BinPassword    = "password"
	BinGender      = "gender"
	BinRegion      = "region"
	BinLastTweeted = "lasttweeted"
	BinTweetCount  = "tweetcount"
	BinInterests   = "interests"
)

// BinNames lists the bins requested by the scan, in order.
var BinNames = []string{
	BinUsername,
	BinPassword,
	BinGender,
	BinRegion,
	BinLastTweeted,
	BinTweetCount,
	BinInterests,
}

var (
	// Genders are the allowed gender values.
	Genders = []string{"m", "f"}
	// Regions are the allowed region values.
	Regions = []string{"n", "s", "e", "w"}
	// Interests is the vocabulary interest tags are drawn from.
	Interests = []string{
		"Music", "Football", "Soccer", "Baseball", "Basketball", "Hockey",
		"Weekend Warrior", "Hiking", "Camping", "Travel", "Photography",
	}
)

// MaxInterests is the largest number of interest tags a user can have.
const MaxInterests = 6

// User is a synthetic twitter-like user.
type User struct {
	Username    string
	Password    string
	Gender      string
	Region      string
	LastTweeted int64
	TweetCount  int64
	Interests   []string
}

// Username returns the key of user id.
func Username(id int64) string {
	return fmt.Sprintf("user%d", id)
}

// Password returns the password of user id.
func Password(id int64) string {
	return fmt.Sprintf("pwd%d", id)
}

// Bins converts the user into store bins.
func (u *User) Bins() store.Bins {
	interests := make([]interface{}, len(u.Interests))
	for i, s := range u.Interests {
		interests[i] = s
	}
	return store.Bins{
		BinUsername:    u.Username,
		BinPassword:    u.Password,
		BinGender:      u.Gender,
		BinRegion:      u.Region,
		BinLastTweeted: u.LastTweeted,
		BinTweetCount:  u.TweetCount,
		BinInterests:   interests,
	}
}

// FromBins decodes bins written by (*User).Bins. Missing bins are left zero.
func FromBins(bins store.Bins) (*User, error) {
	u := &User{}
	var err error
	if u.Username, err = stringBin(bins, BinUsername); err != nil {
		return nil, err
	}
	if u.Password, err = stringBin(bins, BinPassword); err != nil {
		return nil, err
	}
	if u.Gender, err = stringBin(bins, BinGender); err != nil {
		return nil, err
	}
	if u.Region, err = stringBin(bins, BinRegion); err != nil {
		return nil, err
	}
	if u.LastTweeted, err = intBin(bins, BinLastTweeted); err != nil {
		return nil, err
	}
	if u.TweetCount, err = intBin(bins, BinTweetCount); err != nil {
		return nil, err
	}
	if v, ok := bins[BinInterests]; ok && v != nil {
		list, ok := v.([]interface{})
		if !ok {
			return nil, errors.Errorf("bin %s: expect list, got %T", BinInterests, v)
		}
		for _, item := range list {
			s, ok := item.(string)
			if !ok {
				return nil, errors.Errorf("bin %s: expect string element, got %T", BinInterests, item)
			}
			u.Interests = append(u.Interests, s)
		}
	}
	return u, nil
}

// Validate checks the enumerated fields against their allowed values.
func (u *User) Validate() error {
	if !contains(Genders, u.Gender) {
		return errors.Errorf("user %s: invalid gender %q", u.Username, u.Gender)
	}
	if !contains(Regions, u.Region) {
		return errors.Errorf("user %s: invalid region %q", u.Username, u.Region)
	}
	if len(u.Interests) > MaxInterests {
		return errors.Errorf("user %s: %d interests exceed %d", u.Username, len(u.Interests), MaxInterests)
	}
	for _, interest := range u.Interests {
		if !contains(Interests, interest) {
			return errors.Errorf("user %s: unknown interest %q", u.Username, interest)
		}
	}
	return nil
}

func stringBin(bins store.Bins, name string) (string, error) {
	v, ok := bins[name]
	if !ok || v == nil {
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", errors.Errorf("bin %s: expect string, got %T", name, v)
	}
	return s, nil
}

func intBin(bins store.Bins, name string) (int64, error) {
	v, ok := bins[name]
	if !ok || v == nil {
		return 0, nil
	}
	switch x := v.(type) {
	case int64:
		return x, nil
	case int:
		return int64(x), nil
	}
	return 0, errors.Errorf("bin %s: expect integer, got %T", name, v)
}

func contains(set []string, s string) bool {
	for _, v := range set {
		if v == s {
			return true
		}
	}
	return false
}
