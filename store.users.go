package main

import "strings"

// Users is the member collection, keyed by account.
type Users map[string]User

// Fetch returns the user stored under account.
func (u Users) Fetch(account string) (User, error) {
	user, ok := u[account]
	if !ok {
		return User{}, ErrNothingFound
	}
	return user, nil
}

// Add validates the user and inserts it under a free account.
func (u Users) Add(user User) (User, error) {
	if err := user.Validate(); err != nil {
		return user, err
	}
	if _, exists := u[user.Account]; exists {
		return user, ErrArguments
	}
	u[user.Account] = user
	return user, nil
}

// Update replaces the user stored under oldAccount. A changed account
// removes the old entry, re-inserts under the new key and cascades the
// rename into borrower and reservation fields of the catalog. The same
// non-atomic rename edge as in Categories.Update applies.
func (u Users) Update(oldAccount string, user User, books Books) (User, error) {
	if err := user.Validate(); err != nil {
		return user, err
	}
	if _, ok := u[oldAccount]; !ok {
		return user, ErrNothingFound
	}
	if oldAccount != user.Account {
		delete(u, oldAccount)
		if _, exists := u[user.Account]; exists {
			return user, ErrArguments
		}
		books.UpdateUser(oldAccount, user.Account)
	}
	u[user.Account] = user
	return user, nil
}

// Delete removes the user unless a book still lists the account as
// borrower or reserver.
func (u Users) Delete(account string, books Books) error {
	if _, ok := u[account]; !ok {
		return ErrNothingFound
	}
	if books.IsUserReferenced(account) {
		return ErrReferencedUser
	}
	delete(u, account)
	return nil
}

// Search matches users against the query in three relevance tiers:
// account prefix, account substring, then forename/surname/role
// substring. The returned page concatenates the tiers in that order,
// but the pagination window is applied against a single match counter
// shared across all tiers, so a page boundary can cut into any tier.
// total reports all matches regardless of the window. mayBorrow
// narrows the scan when set.
func (u Users) Search(query string, mayBorrow *bool, offset, limit int) (int, []User) {
	query = strings.ToLower(strings.TrimSpace(query))
	var tier1, tier2, tier3 []User

	matches := 0
	for _, account := range sortedKeys(u) {
		user := u[account]
		if mayBorrow != nil && user.MayBorrow != *mayBorrow {
			continue
		}
		lowerAccount := strings.ToLower(user.Account)

		var tier *[]User
		switch {
		case strings.HasPrefix(lowerAccount, query):
			tier = &tier1
		case strings.Contains(lowerAccount, query):
			tier = &tier2
		case containsFold(user.Forename, query) ||
			containsFold(user.Surname, query) ||
			containsFold(user.Role, query):
			tier = &tier3
		default:
			continue
		}

		if matches >= offset && matches < offset+limit {
			*tier = append(*tier, user)
		}
		matches++
	}

	page := make([]User, 0, len(tier1)+len(tier2)+len(tier3))
	page = append(page, tier1...)
	page = append(page, tier2...)
	page = append(page, tier3...)
	return matches, page
}

// UpdateRoles resets every role and assigns the given ones. Accounts
// missing from roles end up with an empty role, unknown accounts are
// ignored.
func (u Users) UpdateRoles(roles map[string]string) {
	for account, user := range u {
		user.Role = ""
		u[account] = user
	}
	for account, role := range roles {
		if user, ok := u[account]; ok {
			user.Role = strings.TrimSpace(role)
			u[account] = user
		}
	}
}
