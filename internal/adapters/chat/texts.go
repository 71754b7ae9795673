package chat

const helpText = `**🤖 X Sentiment Analysis Bot - Panduan Penggunaan**

**Perintah Utama:**
` + "`@XS [query_pencarian]`" + ` - Analisis sentimen tweet berdasarkan query pencarian
` + "`!help`" + ` atau ` + "`!bantuan`" + ` - Menampilkan pesan bantuan ini
` + "`!example`" + ` atau ` + "`!contoh`" + ` - Contoh query pencarian
` + "`!status`" + ` - Status bot dan informasi

**Format Query Pencarian:**
- ` + "`@XS kata_kunci`" + ` - Pencarian sederhana
- ` + "`@XS \"frasa exact\"`" + ` - Pencarian frasa tepat
- ` + "`@XS #hashtag`" + ` - Pencarian berdasarkan hashtag
- ` + "`@XS from:username`" + ` - Tweet dari user tertentu
- ` + "`@XS since:YYYY-MM-DD until:YYYY-MM-DD`" + ` - Rentang waktu
- ` + "`@XS lang:id`" + ` - Tweet dalam bahasa Indonesia
- ` + "`@XS -keyword`" + ` - Mengecualikan keyword
- ` + "`@XS opini warga tentang transportasi umum`" + ` - Kalimat biasa juga bisa`

const examplesText = `**📚 Contoh Query Pencarian yang Bisa Dicoba:**

1. **Trending Topic dengan Rentang Waktu**
   ` + "`@XS #pemilu2024 since:2024-02-01 until:2024-02-14 lang:id`" + `

2. **Tweet dari Akun Spesifik**
   ` + "`@XS from:tanyakanrl since:2024-01-01 lang:id`" + `

3. **Pencarian Frasa Exact**
   ` + "`@XS \"krisis ekonomi\" until:2024-02-14 lang:id`" + `

4. **Pencarian dengan Eksklusi Keyword**
   ` + "`@XS startup -fail -bangkrut since:2023-01-01 lang:id`" + `

5. **Kombinasi Kompleks**
   ` + "`@XS #teknologi from:startupdailyid since:2024-01-01 until:2024-02-14 -ai -robot`"

const statusHeader = `**🔧 Status Bot**
- **Bot Name:** X Sentiment Analysis
- **Status:** ✅ Online
- **Usage:** Gunakan ` + "`@XS [query]`" + ` untuk menganalisis sentimen tweet`
