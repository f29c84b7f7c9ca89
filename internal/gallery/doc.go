/*
Package gallery enumerates gallery directories and holds the small pieces of
per-view state a front end keeps between interactions.

Listing never fails: an unreadable directory is an empty gallery.

	dirs := gallery.ListSubdirectories("/photos")
	images := gallery.ListImages(dirs[0])
	gallery.SortImages(images, mediatypes.SortNewest)

Selection and Preview are plain values owned by one caller; nothing in this
package is shared between views.
*/
package gallery
