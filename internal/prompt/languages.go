package prompt

// #region languages
type language struct {
	name     string
	apology  string
	greeting string
}

var languages = map[string]language{
	"en": {"English",
		"I apologize, but I'm having trouble processing your request right now. Please try again later.",
		"Hello! I'm your agricultural assistant. How can I help you with farming today?"},
	"hi": {"Hindi",
		"मुझे खेद है, लेकिन मैं आपके अनुरोध को संसाधित करने में समस्या आ रही है। कृपया बाद में पुनः प्रयास करें।",
		"नमस्ते! मैं आपका कृषि सहायक हूं। आज खेती में आपकी कैसे मदद कर सकता हूं?"},
	"ta": {"Tamil",
		"மன்னிக்கவும், உங்கள் கோரிக்கையை செயலாக்குவதில் சிக்கல் உள்ளது. தயவுசெய்து பிறகு மீண்டும் முயற்சிக்கவும்।",
		"வணக்கம்! நான் உங்கள் விவசாய உதவியாளர். இன்று விவசாயத்தில் உங்களுக்கு எவ்வாறு உதவ முடியும்?"},
	"te": {"Telugu",
		"క్షమించండి, మీ అభ్యర్థనను ప్రాసెస్ చేయడంలో సమస్య ఉంది. దయచేసి తర్వాత మళ్లీ ప్రయత్నించండి।",
		"నమస్కారం! నేను మీ వ్యవసాయ సహాయకుడిని. ఈరోజు వ్యవసాయంలో మీకు ఎలా సహాయం చేయగలను?"},
	"bn": {"Bengali",
		"আমি দুঃখিত, কিন্তু আপনার অনুরোধ প্রক্রিয়াকরণে সমস্যা হচ্ছে। অনুগ্রহ করে পরে আবার চেষ্টা করুন।",
		"নমস্কার! আমি আপনার কৃষি সহায়ক। আজ কৃষিকাজে আপনাকে কীভাবে সাহায্য করতে পারি?"},
	"mr": {"Marathi",
		"माफ करा, पण तुमचा विनंती प्रक्रिया करताना समस्या येत आहे. कृपया नंतर पुन्हा प्रयत्न करा।",
		"नमस्कार! मी तुमचा शेती सहायक आहे. आज शेतीत तुम्हाला कशी मदत करू शकतो?"},
	"gu": {"Gujarati",
		"માફ કરશો, પણ તમારી વિનંતી પ્રક્રિયા કરતી વખતે સમસ્યા આવી રહી છે. કૃપા કરીને પછી ફરીથી પ્રયત્ન કરો।",
		"નમસ્તે! હું તમારો કૃષિ સહાયક છું. આજે ખેતીમાં તમને કેવી રીતે મદદ કરી શકું?"},
	"kn": {"Kannada",
		"ಕ್ಷಮಿಸಿ, ಆದರೆ ನಿಮ್ಮ ವಿನಂತಿಯನ್ನು ಪ್ರಕ್ರಿಯೆಗೊಳಿಸುವಲ್ಲಿ ಸಮಸ್ಯೆ ಇದೆ. ದಯವಿಟ್ಟು ನಂತರ ಮತ್ತೆ ಪ್ರಯತ್ನಿಸಿ।",
		"ನಮಸ್ಕಾರ! ನಾನು ನಿಮ್ಮ ಕೃಷಿ ಸಹಾಯಕ. ಇಂದು ಕೃಷಿಯಲ್ಲಿ ನಿಮಗೆ ಹೇಗೆ ಸಹಾಯ ಮಾಡಬಹುದು?"},
	"ml": {"Malayalam",
		"ക്ഷമിക്കണം, പക്ഷേ നിങ്ങളുടെ അഭ്യർത്ഥന പ്രോസസ്സ് ചെയ്യുന്നതിൽ പ്രശ്നമുണ്ട്. ദയവായി പിന്നീട് വീണ്ടും ശ്രമിക്കുക।",
		"നമസ്കാരം! ഞാൻ നിങ്ങളുടെ കാർഷിക സഹായിയാണ്. ഇന്ന് കാർഷിക വിഭാഗത്തിൽ നിങ്ങൾക്ക് എങ്ങനെ സഹായിക്കാം?"},
	"pa": {"Punjabi",
		"ਮੁਆਫ਼ ਕਰੋ, ਪਰ ਤੁਹਾਡੀ ਬੇਨਤੀ ਨੂੰ ਪ੍ਰੋਸੈਸ ਕਰਨ ਵਿੱਚ ਸਮੱਸਿਆ ਆ ਰਹੀ ਹੈ। ਕਿਰਪਾ ਕਰਕੇ ਬਾਅਦ ਵਿੱਚ ਦੁਬਾਰਾ ਕੋਸ਼ਿਸ਼ ਕਰੋ।",
		"ਸਤ ਸ੍ਰੀ ਅਕਾਲ! ਮੈਂ ਤੁਹਾਡਾ ਖੇਤੀ ਸਹਾਇਕ ਹਾਂ। ਅੱਜ ਖੇਤੀ ਵਿੱਚ ਤੁਹਾਡੀ ਕਿਵੇਂ ਮਦਦ ਕਰ ਸਕਦਾ ਹਾਂ?"},
	"or": {"Odia",
		"କ୍ଷମା କରନ୍ତୁ, କିନ୍ତୁ ଆପଣଙ୍କ ଅନୁରୋଧକୁ ପ୍ରକ୍ରିୟାକରଣ କରିବାରେ ସମସ୍ୟା ଆସୁଛି। ଦୟାକରି ପରେ ପୁନର୍ବାର ଚେଷ୍ଟା କରନ୍ତୁ।",
		"ନମସ୍କାର! ମୁଁ ତୁମର କୃଷି ସହାୟକ। ଆଜି କୃଷିରେ ତୁମକୁ କିପରି ସାହାଯ୍ୟ କରିପାରିବି?"},
	"as": {"Assamese",
		"ক্ষমা কৰিব, কিন্তু আপোনাৰ অনুৰোধ প্ৰক্ৰিয়াকৰণত সমস্যা আহিছে। অনুগ্ৰহ কৰি পিছত আকৌ চেষ্টা কৰক।",
		"নমস্কাৰ! মই আপোনাৰ কৃষি সহায়ক। আজি কৃষিত আপোনাক কেনেকৈ সহায় কৰিব পাৰো?"},
}

// SupportedLanguages lists the language codes in a stable order.
var SupportedLanguages = []string{"en", "hi", "ta", "te", "bn", "mr", "gu", "kn", "ml", "pa", "or", "as"}

// Supported reports whether code is a supported language.
func Supported(code string) bool {
	_, ok := languages[code]
	return ok
}

// Normalize returns code if supported, otherwise "en".
func Normalize(code string) string {
	if Supported(code) {
		return code
	}
	return "en"
}

// LanguageName returns the English name of a language, defaulting to English.
func LanguageName(code string) string {
	return languages[Normalize(code)].name
}

// Apology is the fixed failure message shown to the user.
func Apology(code string) string {
	return languages[Normalize(code)].apology
}

// Greeting is the opening message for a new chat.
func Greeting(code string) string {
	return languages[Normalize(code)].greeting
}

// #endregion languages
