// Package autofill delivers one-time codes to a running otpview prompt.
//
// A prompt started with --autofill runs a Listener: a small websocket
// endpoint at /autofill. Each frame is either a JSON object
//
//	{"code": "482913"}
//	{"message": "Your login code is 482913", "paste": false}
//
// or raw text, which is treated like "message". Codes are found in messages
// with ExtractCode, checked against the field's length, and handed to a Sink.
// Every frame is answered with an Ack.
//
// # Discovery
//
// Listeners may announce themselves over mDNS as _otpview._tcp. Browse
// returns the Endpoints that answer within a timeout; Push sends a Payload
// to an endpoint URL and waits for the acknowledgement.
//
// # Errors
//
// All operations return *Error with an ErrorType. GetTroubleshootingHint
// maps an error to advice for the user:
//
//	ack, err := autofill.Push(ctx, url, autofill.Payload{Code: "482913", Paste: true})
//	if err != nil {
//		for _, tip := range autofill.GetTroubleshootingHint(err) {
//			fmt.Println(tip)
//		}
//	}
//
// Codes never appear in logs; see logging.MaskCode.
package autofill
