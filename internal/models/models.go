// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package models holds the client-side projections of remote API records.
//
// Nothing here is authoritative: profiles are snapshots carried by the
// session, videos are the last-fetched list and are replaced on every fetch.
package models

import (
	"strings"
	"time"

	"github.com/taibuivan/vidshare/pkg/pointer"
	"github.com/taibuivan/vidshare/pkg/slice"
)

// Profile is the user record returned by the remote API.
type Profile struct {
	ID        string `json:"_id"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	UserName  string `json:"userName,omitempty"`
	Email     string `json:"email,omitempty"`
	MobileNum string `json:"mobileNum,omitempty"`
	ImgURL    string `json:"imgUrl,omitempty"`
	Bio       string `json:"bio,omitempty"`
}

// DisplayName returns "First Last", falling back to the user name.
func (p Profile) DisplayName() string {
	name := strings.TrimSpace(p.FirstName + " " + p.LastName)
	if name == "" {
		return p.UserName
	}
	return name
}

// ProfilePatch names the profile fields to replace. Nil fields are left alone.
type ProfilePatch struct {
	ImgURL *string
	Bio    *string
}

// IsEmpty reports whether the patch changes nothing.
func (p ProfilePatch) IsEmpty() bool {
	return p.ImgURL == nil && p.Bio == nil
}

// Apply returns profile with the patched fields replaced.
func (p ProfilePatch) Apply(profile Profile) Profile {
	profile.ImgURL = pointer.Fallback(p.ImgURL, profile.ImgURL)
	profile.Bio = pointer.Fallback(p.Bio, profile.Bio)
	return profile
}

// Video is one uploaded video with its owner embedded.
type Video struct {
	ID           string    `json:"_id"`
	User         Profile   `json:"user"`
	Title        string    `json:"title"`
	Description  string    `json:"description,omitempty"`
	VideoURL     string    `json:"videoUrl"`
	ThumbnailURL string    `json:"thumbnailUrl,omitempty"`
	Views        int64     `json:"views"`
	Likes        int64     `json:"likes"`
	CreatedAt    time.Time `json:"createdAt"`
}

// OwnerGroup is the videos of one owner, as shown on the listing page.
type OwnerGroup struct {
	Owner  Profile
	Videos []Video
}

// GroupByOwner buckets videos by owner ID. Owners appear in first-seen order,
// videos keep their list order, and each group's Owner is the profile
// embedded in its first video. Videos with no embedded owner have no owner
// page to link to and are left out.
func GroupByOwner(videos []Video) []OwnerGroup {
	owned := slice.Filter(videos, func(v Video) bool { return v.User.ID != "" })
	groups := slice.GroupBy(owned, func(v Video) string { return v.User.ID })

	return slice.Map(groups, func(g slice.Group[string, Video]) OwnerGroup {
		return OwnerGroup{Owner: g.Items[0].User, Videos: g.Items}
	})
}
