package domain

// places is the fixed list offered by the "place" selector, in display order.
var places = []string{
	"شبرا الخيمة", "شبرا مصر (الجنوبية)", "شبين القناطر", "عين شمس والمطرية وحلمية الزيتون",
	"حدائق القبة والوايلى والعباسية ومنشية الصدر", "عزبة النخل والمرج", "مدينة السلام والعبور", "شرق السكة الحديد",
	"حلوان والمعصرة", "المقطم", "مصر القديمة", "مدينة العبور",
	"مدينة بدر", "الجيزة (طموة وتوابعها)", "الجيزة (شمال الجيزة)", "الجيزة (وسط الجيزة)",
	"الجيزة (6 أكتوبر والشيخ زايد)", "البحيرة", "بنها", "المحلة",
	"طنطا", "المنصورة", "الشرقية والعاشر من رمضان", "الإسماعيلية",
	"ميت غمر", "كفر الشيخ دمياط البرارى", "المنوفية", "بورسعيد",
	"السويس", "مرسى مطروح", "الخمس مدن الغربية", "قطاع المنتزه الإسكندرية",
	"قطاع شرق الإسكندرية", "قطاع وسط الإسكندرية", "برج العرب والعامرية", "بنى سويف",
	"الفشن وببا وسمسطا", "مغاغة", "بنى مزار", "شرق المنيا",
	"أبو قرقاص", "مطاى", "سمالوط", "دير مواس ودلجه",
	"ملوى", "ديروط", "القوصية", "رزقة الدير",
	"منفلوط", "ابنوب والفتح", "ابوتيج", "الوادى الجديد",
	"طهطا", "طما", "سوهاج", "جرجا",
	"أخميم", "البلينا غرب وشرق", "نجع حمادى", "دشنا",
	"قنا", "البحر الاحمر", "قوص", "نقادة",
	"الأقصر", "اسنا", "اسوان",
}

// Places returns a copy of the fixed place list.
func Places() []string {
	return append([]string(nil), places...)
}
