// Package editor implements the editing session: the single owner of the
// currently loaded image, the requested output options and the current
// render result.
//
// A Session moves through three states:
//
//	Empty --Load--> Loaded --Apply--> Transformed --Download--> Transformed
//	                  ^  \____Load_______/  ^   \____Apply_____/
//	                  |______Load___________|
//
// Load replaces the image and discards any render result. Apply resizes the
// image to the requested dimensions and stores the result losslessly.
// Download converts the result to the requested format and saves it.
//
// Every operation invoked without its precondition returns an error matching
// imaging.ErrUsage and leaves the session untouched. Decode, surface and
// encode failures also leave the session untouched; UserMessage turns any of
// them into a short message for the user.
//
// A Session is not safe for concurrent use. Front ends must not start an
// action while another one is in flight.
package editor
