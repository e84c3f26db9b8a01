package entities

// Follow starts following target. Following yourself stops following.
func (c *Character) Follow(target *Character) {
	if target == c {
		c.Unfollow()
		return
	}
	if c.following != nil {
		c.Unfollow()
	}

	c.following = target
	target.AddFollower(c)
	c.Events.Followed.Publish(target)
}

// Unfollow stops following.
func (c *Character) Unfollow() {
	leader := c.following
	if leader == nil {
		return
	}
	leader.RemoveFollower(c)
	c.following = nil
	c.Events.Unfollowed.Publish(leader)
}

// AddFollower records follower as following this character.
func (c *Character) AddFollower(follower *Character) {
	if !c.followers.add(follower) {
		return
	}
	follower.following = c
	c.Events.GainedFollower.Publish(follower)
}

// RemoveFollower forgets follower.
func (c *Character) RemoveFollower(follower *Character) {
	if !c.followers.remove(follower) {
		return
	}
	follower.following = nil
	c.Events.LostFollower.Publish(follower)
}

// IsFollowing reports whether the character follows target.
func (c *Character) IsFollowing(target *Character) bool {
	return c.following == target
}

// Following returns who the character follows, or nil.
func (c *Character) Following() *Character {
	return c.following
}

// HasFollower reports whether target follows the character.
func (c *Character) HasFollower(target *Character) bool {
	return c.followers.has(target)
}

// Followers returns the character's followers.
func (c *Character) Followers() []*Character {
	return c.followers.values()
}
