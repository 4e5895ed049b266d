package entity

// gazetteer lists the serviceable cities and localities matched by
// substring against the normalized query. Order is semantic: earlier
// entries win the positional pickup/drop assignment when several places
// appear, so broader city names come before localities.
var gazetteer = []string{
	"mumbai", "delhi", "bangalore", "pune", "chennai",
	"kolkata", "hyderabad", "ahmedabad", "gurgaon", "noida",
	"thane", "navi mumbai", "andheri", "powai", "bandra",
	"worli", "kurla", "ghatkopar", "khargar", "vashi",
	"panvel", "whitefield", "koramangala", "indiranagar", "malleswaram",
	"mg road", "connaught place", "saket", "vasant kunj", "dwarka",
	"rohini", "ghaziabad", "faridabad", "kashmir", "tier",
}
