package waitfor

// Helpers for regions whose content is replaced in place by asynchronous
// page updates. They key off the region's first child element.

// DynamicUpdate waits for region to be re-rendered. If region has a first
// child now, it waits for that child to go stale and a new first child to
// become visible. If region is empty there is nothing to go stale, so it
// waits for a first child to become visible.
//
// Build the condition before triggering the update.
func DynamicUpdate(region Element) Condition[Element] {
	child, err := ElementIfPresent(region, firstChild)
	if err != nil {
		return failed[Element]("dynamicUpdate", err)
	}
	if child != nil {
		return UpdateOfElement(child)
	}
	return VisibilityOfElementLocated(region, firstChild)
}

// DynamicUpdateExpect is DynamicUpdate with a caller-supplied element
// expected to be visible once the region has been re-rendered.
func DynamicUpdateExpect(region, expected Element) Condition[Element] {
	child, err := ElementIfPresent(region, firstChild)
	if err != nil {
		return failed[Element]("dynamicUpdateExpect", err)
	}
	if child != nil {
		return UpdateFromElementTo(child, expected)
	}
	return VisibilityOf(expected)
}

// DynamicUpdateEmpty waits for region to have no visible first child.
func DynamicUpdateEmpty(region Element) Condition[bool] {
	return InvisibilityOfElementLocated(region, firstChild)
}
